package main

import "user-service/cmd"

func main() {
	cmd.Execute()
}
