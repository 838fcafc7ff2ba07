package repl

import (
	"fmt"
)

func (r *REPL) displayWelcome() {
	providerName := ""
	if r.deps.Provider != nil {
		providerName = r.deps.Provider.Name()
	}
	fmt.Print(r.formatter.FormatWelcome(r.deps.Config.Model.Name, providerName))
}

func (r *REPL) displayHelp() {
	fmt.Print(r.formatter.FormatHelp())
}

func (r *REPL) displayError(err error) {
	r.status.Hide()
	fmt.Println(r.formatter.FormatError(err))
	fmt.Println()
}

func (r *REPL) displayInfo(msg string) {
	fmt.Println(r.formatter.FormatInfo(msg))
	fmt.Println()
}

func (r *REPL) displaySystem(msg string) {
	fmt.Println(r.formatter.FormatSystem(msg))
	fmt.Println()
}

func (r *REPL) displayLocal(msg string) {
	fmt.Println()
	fmt.Println(r.formatter.FormatLocalReply(msg))
	fmt.Println()
}
