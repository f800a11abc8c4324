package main

import (
	"github.com/xinjiayu/rxcore/cmd/rxplay/cmd"
)

func main() {
	cmd.Execute()
}
