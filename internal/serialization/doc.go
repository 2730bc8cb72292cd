// Package serialization stores named arrays in SafeTensors files.
//
// Format:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw little-endian bytes]
//
// The header maps each tensor name to its dtype, shape and byte range in
// the data section, plus an optional "__metadata__" string map. Tensors are
// stored in name order, which lets batch archives be written as
// "train_data.0000", "train_data.0001", ... and read back in order.
package serialization
