package main

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	Execute()
}
