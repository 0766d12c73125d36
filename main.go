package main

import "github.com/xvierd/studyflow/cmd"

func main() {
	cmd.Execute()
}
