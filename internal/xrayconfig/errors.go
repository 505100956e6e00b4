package xrayconfig

import (
	"fmt"

	herrors "herscat/pkg/errors"
)

var errRealityRequiresVless = fmt.Errorf("%w: reality security requires vless", herrors.ErrProtocolInvariant)
