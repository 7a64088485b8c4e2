// Command taskflow is a local task manager with a dependency graph:
// tasks can block one another, and the graph is kept acyclic and
// consistent as tasks are created, completed, reopened, and deleted.
package main

func main() {
	Execute()
}
