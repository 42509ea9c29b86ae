// Package directory is Hearthcloud's device store: the authoritative
// record of every registered device, its traits, attributes, and
// current state.
//
// # Architecture
//
// Devices are documents scoped by user:
//
//	user-1
//	  ├── washer-1   {type, traits, states{...}, attributes{...}}
//	  └── light-2    {type, traits, states{...}, attributes{...}}
//
// The command engine reads a device before execution and writes the
// resulting state changes back through UpdateFields, addressing
// individual values by dotted path ("states.on",
// "states.color.spectrumRgb"). This keeps writes partial: a brightness
// change never clobbers concurrent color state.
//
// # Consistency
//
// Each UpdateFields call is one transaction, so a multi-path update is
// applied or rolled back as a unit against the row. There is no
// cross-call atomicity: two engines writing different paths of the same
// device interleave in row-lock order, last writer per path wins.
//
// # Storage
//
// The SQLite implementation keeps fixed metadata (name, type, tfa,
// errorCode) in columns and the open-ended trait data (states,
// attributes) in JSON columns, mirroring the document model.
package directory
