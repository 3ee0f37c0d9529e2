// Package synth adds conversion methods to a resolved holder.
//
// A (source, target) pair is first unwrapped to its element types when both
// sides are containers. For the element pair the synthesizer ensures:
//
//   - convert(source) target, tagged convert_from_<Source>_to_<Target>
//   - convertOrNewInstance(source) target, when target has a zero-argument
//     constructor; its body falls back to a new instance
//   - convertFrom<Source>List(list of source) list of target, for container
//     pairs only, bound to the convert tag
//
// Each method is looked up by purpose and parameter type before it is built.
// A match is reused and only gains the annotations and documentation it is
// missing, so synthesis can run any number of times for the same pair.
//
// Key types:
//   - Pair: an element-level pair
//   - Signature: name, purpose, parameter and result of one method
//   - Synthesizer: applies signatures to a holder
package synth
