package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/manifest"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	sqlFlag     = flag.Bool("sql", false, "Emit the CREATE TABLE migration SQL instead of a summary")
)

func main() {
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := tablestore.GetVersionInfo()
		fmt.Printf("tablestore tablemanifest version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	path := "tables.yaml"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := manifest.Run(path, *sqlFlag, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tablemanifest: %v\n", err)
		os.Exit(1)
	}
}
