package main

import "github.com/nikogura/resume-refiner/cmd"

func main() {
	cmd.Execute()
}
