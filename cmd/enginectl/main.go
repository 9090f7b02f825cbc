/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/kestrelforge/enginecore/cmd/enginectl/cmd"
)

func main() {
	cmd.Execute()
}
