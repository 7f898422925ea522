package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/gogpu/glfx"
)

// BinaryFormatSPIRV is the program binary format of the HAL backend. It
// reuses the value GL assigns to SPIR-V shader binaries.
const BinaryFormatSPIRV glfx.Enum = 0x9551

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var binaryMagic = [8]byte{'G', 'L', 'F', 'X', 'S', 'P', 'V', '1'}

var errCorruptBinary = errors.New("corrupt program binary")

// encodeBinary serializes linked stages:
//
//	magic [8]byte
//	count uint32
//	count * {
//		stage  uint32
//		length uint32, source [length]byte
//		words  uint32, spirv  [words]uint32
//	}
//
// All integers are little-endian. The WGSL source travels with the
// SPIR-V so uniform locations and entry points survive a reload.
func encodeBinary(stages []linkedStage) []byte {
	var buf bytes.Buffer
	buf.Write(binaryMagic[:])
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(stages)))
	for _, s := range stages {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(s.stage))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.source)))
		buf.WriteString(s.source)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.spirv)))
		_ = binary.Write(&buf, binary.LittleEndian, s.spirv)
	}
	return buf.Bytes()
}

func decodeBinary(data []byte) ([]linkedStage, error) {
	rd := bytes.NewReader(data)
	var magic [8]byte
	if _, err := io.ReadFull(rd, magic[:]); err != nil || magic != binaryMagic {
		return nil, errCorruptBinary
	}
	var count uint32
	if err := binary.Read(rd, binary.LittleEndian, &count); err != nil || count == 0 {
		return nil, errCorruptBinary
	}
	if int64(count)*12 > int64(rd.Len()) {
		return nil, errCorruptBinary
	}
	stages := make([]linkedStage, 0, count)
	for range count {
		var hdr struct{ Stage, Length uint32 }
		if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
			return nil, errCorruptBinary
		}
		if int64(hdr.Length) > int64(rd.Len()) {
			return nil, errCorruptBinary
		}
		src := make([]byte, hdr.Length)
		if _, err := io.ReadFull(rd, src); err != nil {
			return nil, errCorruptBinary
		}
		var words uint32
		if err := binary.Read(rd, binary.LittleEndian, &words); err != nil {
			return nil, errCorruptBinary
		}
		if words == 0 || int64(words)*4 > int64(rd.Len()) {
			return nil, errCorruptBinary
		}
		spirv := make([]uint32, words)
		if err := binary.Read(rd, binary.LittleEndian, spirv); err != nil || spirv[0] != spirvMagic {
			return nil, errCorruptBinary
		}
		stages = append(stages, linkedStage{
			stage:  glfx.ShaderStage(hdr.Stage),
			source: string(src),
			spirv:  spirv,
		})
	}
	if rd.Len() != 0 {
		return nil, errCorruptBinary
	}
	return stages, nil
}
