package main

import "github.com/tokodemo/storefront/cmd"

func main() {
	cmd.Execute()
}
