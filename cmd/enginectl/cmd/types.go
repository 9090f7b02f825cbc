/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/reflect"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Inspect the type registry",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every seeded and application-registered type, in hash order",
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := loadContainer(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()

		c.Registry.Range(func(t *reflect.Type) bool {
			kind := "class"
			if t.Kind() == reflect.KindEnumeration {
				kind = "enum"
			}
			fmt.Printf("%08x  %-8s  %s\n", uint32(t.Hash()), kind, t.Name())
			return true
		})
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesListCmd)
}
