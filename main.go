package main

import (
	"github.com/yenkart/yenkart/cmd"
)

func main() {
	cmd.Start()
}
