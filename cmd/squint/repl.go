package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/squintdb/squint/compiler"
)

func runRepl(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "path to a YAML catalog file")
	fs.Parse(args)
	model, err := loadModel(*schemaPath)
	if err != nil {
		return err
	}
	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)
	for {
		line, err := rl.Prompt("squint> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rl.AppendHistory(line)
		analysis, err := compiler.AnalyzeString(line, model)
		if err != nil {
			fmt.Println(err)
			continue
		}
		printColumns(analysis)
	}
}
