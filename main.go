package main

import "github.com/DestrierStudios/Rayfall/internal/cmd"

func main() {
	cmd.Execute()
}
