package main

import "github.com/josephlewis42/seashell/cmd"

func main() {
	cmd.Execute()
}
