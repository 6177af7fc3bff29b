package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qsim"
)

func main() {
	qubits := flag.Int("qubits", 3, "number of wires in a fresh circuit")
	load := flag.String("load", "", "circuit JSON file to open")
	flag.Parse()

	var c *qsim.Circuit
	if *load != "" {
		data, err := os.ReadFile(*load)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qsim: %v\n", err)
			os.Exit(1)
		}
		c, err = qsim.UnmarshalCircuit(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qsim: %v\n", err)
			os.Exit(1)
		}
	} else {
		c = qsim.NewCircuit(*qubits)
	}

	p := tea.NewProgram(newModel(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "qsim: %v\n", err)
		os.Exit(1)
	}
}
