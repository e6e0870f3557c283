// This program performs administrative tasks against the bio-estate ledger.
package main

import "github.com/francefarms/bioestate/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
