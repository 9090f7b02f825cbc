// Package archive implements the binary spool format that binds a list
// of reflect.Record values to a byte stream: the BOM/encoding/version/
// CRC header, the recursive element-array payload, and the field-level
// default-elision and type-coercion rules that make the format
// tolerant of schema drift between the writer and the reader.
//
// It sits at the top of the reflection stack, depending on both
// pkg/reflect (for the type registry and the Record/Field model) and
// pkg/databind (for the leaf codecs), the same way the source engine's
// archive layer depends on both its reflection and its data-binding
// subsystems.
package archive

// Wire-format constants. The BOM and version are written by every
// archive this engine produces; a reversed BOM on read flips the
// stream's declared byte order for everything that follows it.
const (
	bomForward = uint16(0xFEFF)
	bomReverse = uint16(0xFFFE)

	// CurrentVersion is the version this engine writes. Readers accept
	// this value and any smaller one; anything larger is refused with
	// UnsupportedVersionError.
	CurrentVersion = uint32(7)

	// crcSkip is written by a caller that opted out of CRC validation
	// for this archive; readers must accept the payload unconditionally
	// when they see it.
	crcSkip = uint32(0x10101010)

	// crcInvalid is written into the CRC slot before the payload is
	// serialized and left in place if the writer aborts before
	// backpatching it. Readers treat a stored CRC equal to this value
	// as proof of an incomplete write.
	crcInvalid = uint32(0xFFFFFFFF)

	// blockSize is the chunk size the CRC pass reads in, matching the
	// spec's 4 KiB block requirement.
	blockSize = 4096

	// recordTerminator closes a composite record's field list and the
	// element-array block's element list alike.
	recordTerminator = int32(-1)
)
