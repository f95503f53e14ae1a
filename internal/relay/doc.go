// Package relay holds the logical relay state table and the channel
// threshold decoder shared by every protocol parser. The table has a
// single writer (the dispatcher) and any number of readers.
package relay
