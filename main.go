package main

import "github.com/gaurav-prasanna/webscrape/cmd"

func main() {
	cmd.Execute()
}
