// Package diagnostic provides structured errors, warnings and notes produced
// while loading and resolving properties.
//
// Key capabilities:
//   - Resolution errors tagged with their error kind and the key being processed
//   - "Did you mean" suggestions for undefined keys
//   - Warnings and notes raised by front-ends (overridden keys, dangling references)
package diagnostic
