// Package compress provides the codecs used to pack trie images for distribution.
//
// An opened trie is always read from an uncompressed image, because the bit
// vectors are viewed in place. Compression only applies to the packed form
// produced by the pack package, which is what gets shipped and stored.
//
// Supported algorithms:
//   - None: the image is stored as is
//   - Zstd: best ratio, moderate speed (klauspost/compress/zstd)
//   - S2: balanced ratio and speed (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4/v4 block format)
//
// All codecs are stateless values and safe for concurrent use. Zstd and LZ4
// keep pooled encoder state internally.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(image)
package compress
