package main

import "s3kit/cmd"

func main() {
	cmd.Execute()
}
