package main

import "course-manager/cmd"

func main() {
	cmd.Execute()
}
