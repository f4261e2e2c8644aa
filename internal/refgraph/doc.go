// Package refgraph builds the static reference graph of an unresolved
// property map: which base keys each key refers to through {{ref}}
// placeholders. It is used to explain a property set (graph command) and to
// spot dangling references before a build; resolution itself does not
// depend on it.
package refgraph
