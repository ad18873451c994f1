package main

import "github.com/adamgarcia4/goLearning/rhocollide/cmd"

func main() {
	cmd.Execute()
}
