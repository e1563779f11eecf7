package main

import "github.com/frahmantamala/hr-admin/cmd"

func main() {
	cmd.Execute()
}
