package targets

// Mode selects which traffic engine a stress run drives.
type Mode string

const (
	ModeDownload Mode = "download"
	ModeTCPFlood Mode = "tcp-flood"
	ModeUDPFlood Mode = "udp-flood"
)

// IsFlood reports whether m is one of the two flood modes, which require at
// least one Socket target and never fall back to a built-in target list.
func (m Mode) IsFlood() bool {
	return m == ModeTCPFlood || m == ModeUDPFlood
}
