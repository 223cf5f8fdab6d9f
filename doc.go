/*
Package protomap provides Map, an associative container with prototypal inheritance.

A Map may have a prototype. Reads which miss locally are answered by the prototype, and by its
prototype in turn, while writes and deletes only ever affect the map they are made on:

	base := protomap.New[string, int]()
	base.Set("a", 1)
	base.Set("b", 2)

	m := base.NewScope()
	m.Set("a", 10) // overrides base's "a"
	m.Del("b")     // hides base's "b" without touching base
	m.Len()        // 1

Iteration and counting see the consolidated view of the whole chain, where every key appears
once with its nearest value.

Maps do no locking. Guard a chain with your own mutex if it is shared between goroutines.
*/
package protomap
