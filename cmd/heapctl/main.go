// Command heapctl replays allocator traces against a heapkit heap, checks
// heap integrity, generates traces, and prints size-class tables.
package main

func main() {
	execute()
}
