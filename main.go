package main

import "github.com/vibast-solutions/ms-go-paynow/cmd"

func main() {
	cmd.Execute()
}
