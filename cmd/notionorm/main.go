// Package main is the notionorm command line tool.
package main

func main() {
	Execute()
}
