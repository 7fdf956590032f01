/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package main

import "github.com/gmaffy/kitcomp/cmd"

func main() {
	cmd.Execute()
}
