// Command quartz is the language server's entrypoint, grounded on the
// teacher's root main.go: parse flags, configure commonlog for glsp,
// build the server, and run it over stdio.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"quartz/internal/lsp"
)

// Version is set during the build process using ldflags.
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	debugLogFlag := flag.String("debug-log", "", "Path to a debug log file")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "quartz: unexpected positional arguments")
		os.Exit(2)
	}

	if *versionFlag {
		fmt.Printf("quartz LSP server version %s\n", Version)
		return
	}

	runtime.GOMAXPROCS(4)

	if *debugLogFlag != "" {
		logFile, err := os.OpenFile(*debugLogFlag, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
		log.SetFlags(log.Ldate | log.Ltime | log.Llongfile)
		log.Println("starting quartz LSP server...")
		commonlog.Configure(2, debugLogFlag)
	} else {
		log.SetOutput(io.Discard)
		commonlog.Configure(2, nil)
	}

	server, err := lsp.NewServer()
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := server.RunStdio(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
