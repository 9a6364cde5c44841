// Package messages provides the immutable value carried on topics. A message
// exposes three views of the same payload (raw bytes, text, and a numeric
// interpretation) plus the time it was created.
//
// Design decisions:
//   - One canonical form: every constructor funnels into the text form, and
//     the bytes and numeric views are derived from it once
//   - Never fails on content: text that is not a number yields NaN as its
//     numeric view instead of an error
//   - Immutable: accessors hand out copies, so a Message can be shared
//     between goroutines without synchronization
//
// Example usage:
//
//	m := messages.New("3.5")
//	m.Float() // 3.5
//
//	m = messages.New("abc")
//	math.IsNaN(m.Float()) // true
//	m.Text()              // "abc"
//
//	m = messages.FromFloat(10)
//	m.Text() // "10"
package messages
