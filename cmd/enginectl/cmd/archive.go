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

// note is the CLI's demo record class: two fields, no logic. archive
// write/read round-trip a single spool made of a handful of these so a
// user can exercise the wire format without writing Go.
type note struct {
	reflect.Base
	Text string
	Rank uint32
}

func registerNoteClass(reg *reflect.Registry) (*reflect.Class, error) {
	if c, ok := reg.ClassByName("Note"); ok {
		return c, nil
	}
	stringClass, _ := reg.ClassByName("String")
	u32Class, _ := reg.ClassByName("U32")
	return reg.RegisterClass("Note", nil, &note{}, func() reflect.Record { return &note{} },
		func(c *reflect.Compositor) {
			c.Field("Text", stringClass)
			c.Field("Rank", u32Class)
		})
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Round-trip a demo spool through the archive engine",
}

var archiveWriteCmd = &cobra.Command{
	Use:   "write <file>",
	Short: "Write a demo spool of Note records to file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := loadContainer(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()

		class, err := registerNoteClass(c.Registry)
		if err != nil {
			cmd.Printf("Error registering demo class: %v\n", err)
			os.Exit(1)
		}

		count, _ := cmd.Flags().GetInt("count")
		spool := make([]reflect.Record, 0, count)
		for i := 0; i < count; i++ {
			rec, ok := c.Registry.CreateInstance(class)
			if !ok {
				cmd.Printf("Error: could not instantiate Note\n")
				os.Exit(1)
			}
			n := rec.(*note)
			n.Text = fmt.Sprintf("note-%d", i)
			n.Rank = uint32(i)
			spool = append(spool, n)
		}

		f, err := os.Create(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if err := c.Engine.Write(f, spool); err != nil {
			cmd.Printf("Error writing archive: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("Wrote %d records to %s\n", len(spool), args[0])
	},
}

var archiveReadCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Read a spool back and print each record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := loadContainer(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()

		if _, err := registerNoteClass(c.Registry); err != nil {
			cmd.Printf("Error registering demo class: %v\n", err)
			os.Exit(1)
		}

		f, err := os.Open(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		spool, err := c.Engine.Read(f)
		if err != nil {
			cmd.Printf("Error reading archive: %v\n", err)
			os.Exit(1)
		}

		for i, rec := range spool {
			if n, ok := rec.(*note); ok {
				fmt.Printf("%d: %s (rank=%d)\n", i, n.Text, n.Rank)
				continue
			}
			fmt.Printf("%d: %s\n", i, rec.Class().Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveWriteCmd)
	archiveCmd.AddCommand(archiveReadCmd)

	archiveWriteCmd.Flags().Int("count", 3, "Number of demo Note records to write")
}
