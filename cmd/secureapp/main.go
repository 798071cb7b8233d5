package main

import "github.com/bookshelf/secureapp/cmd/secureapp/cmd"

func main() {
	cmd.Execute()
}
