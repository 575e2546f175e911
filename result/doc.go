// Package result provides the UID-keyed collections returned by catalog
// queries.
//
// A SearchResult holds an ordered list of record ids and resolves items
// lazily: nothing is fetched until Get, Item or a value iterator asks for
// it, and every access calls the resolver again. Membership is always
// checked before the resolver runs, so non-members are never resolved.
//
// Set operations return new results and never modify their operands:
//
//   - Union keeps the receiver's order, then appends the other operand's
//     ids that the receiver lacks, in their original order.
//   - Intersection keeps common ids in the order of the smaller operand.
//   - Difference keeps the receiver's ids missing from the other operand,
//     in the receiver's order.
//
// Combining a SearchResult with any other collection type fails with
// retrieval.ErrHeterogeneousOperands.
package result
