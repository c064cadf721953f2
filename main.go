package main

import "github.com/hospadmin/hospital-admin/cmd"

func main() {
	cmd.Execute()
}
