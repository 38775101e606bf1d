// Command announced keeps a service instance registered with an HTTP
// discovery registry for as long as it runs.
package main

func main() {
	Execute()
}
