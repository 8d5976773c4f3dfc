package main

import (
	"github.com/ukagaka/shiori/cmd"
)

func main() {
	cmd.Execute()
}
