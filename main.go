package main

import "github.com/nextlevelbuilder/anyctl/cmd"

func main() {
	cmd.Execute()
}
