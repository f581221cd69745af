// Command routerctl automates maintenance of a router's wireless profile
// through its web console.
package main

import "routerctl/internal/cli"

func main() {
	cli.Execute()
}
