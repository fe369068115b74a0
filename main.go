package main

import "lottoledger/cmd"

func main() {
	cmd.Execute()
}
