// Command herscat is a proxy stress tester: it spawns a fleet of local
// SOCKS5 endpoints backed by VLESS/Trojan/Shadowsocks configs and drives
// synthetic download, TCP flood, or UDP flood traffic through them.
package main

import "herscat/internal/cli"

func main() {
	cli.Execute()
}
