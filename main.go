package main

import "github.com/shuangxunian/claude-code-router/cmd"

func main() {
	cmd.Execute()
}
