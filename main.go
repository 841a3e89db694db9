package main

import "laporanku_backend/internals/cmd"

func main() {
	cmd.Execute()
}
