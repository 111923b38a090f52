package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
	Comments    []string // Header comment lines without the "comment" keyword
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the triangles loaded from a PLY file
type PLYData struct {
	Header   *PLYHeader
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons fan-triangulated
}

// TriangleCount returns the number of triangles in Faces
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// Triangle returns the three corners of triangle i
func (d *PLYData) Triangle(i int) (core.Vec3, core.Vec3, core.Vec3) {
	return d.Vertices[d.Faces[3*i]], d.Vertices[d.Faces[3*i+1]], d.Vertices[d.Faces[3*i+2]]
}

// Bounds returns the bounding box of all vertices
func (d *PLYData) Bounds() core.AABB {
	if len(d.Vertices) == 0 {
		return core.AABB{}
	}
	return core.NewAABBFromPoints(d.Vertices...)
}

// LoadPLY loads a PLY file and returns its vertices and triangles
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParsePLY reads a PLY stream. Only vertex positions and face vertex
// indices are kept; every other property is read and discarded.
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &asciiValueReader{reader: reader}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data, err := readPLYBody(values, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// ReadPLYHeader parses only the header, leaving the body unread
func ReadPLYHeader(r io.Reader) (*PLYHeader, error) {
	header, err := parsePLYHeader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}
	return header, nil
}

// parsePLYHeader consumes the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := readHeaderLine(reader)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, fmt.Errorf("missing ply magic, got %q", magic)
	}

	var currentElement string
	for {
		line, err := readHeaderLine(reader)
		if err != nil {
			return nil, err
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	for _, axis := range []string{"x", "y", "z"} {
		if header.VertexCount > 0 && vertexPropIndex(header, axis) < 0 {
			return nil, fmt.Errorf("vertex element has no %q property", axis)
		}
	}
	if header.FaceCount > 0 && faceIndexProp(header) < 0 {
		return nil, fmt.Errorf("face element has no vertex_indices list")
	}

	return header, nil
}

func readHeaderLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("unexpected end of header")
		}
		return "", fmt.Errorf("error reading header: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list types %s %s", prop.ListType, prop.DataType)
		}
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
		if getTypeSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown property type %s", prop.Type)
		}
	}

	return prop, nil
}

func vertexPropIndex(header *PLYHeader, name string) int {
	for i, prop := range header.VertexProps {
		if prop.Name == name && !prop.IsList {
			return i
		}
	}
	return -1
}

func faceIndexProp(header *PLYHeader) int {
	for i, prop := range header.FaceProps {
		if prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
			return i
		}
	}
	return -1
}

// readPLYBody reads every vertex and face element in order
func readPLYBody(values plyValueReader, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{
		Header:   header,
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([]int, 0, header.FaceCount*3),
	}

	xi := vertexPropIndex(header, "x")
	yi := vertexPropIndex(header, "y")
	zi := vertexPropIndex(header, "z")

	for i := 0; i < header.VertexCount; i++ {
		var position [3]float64
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.Read(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch j {
			case xi:
				position[0] = v
			case yi:
				position[1] = v
			case zi:
				position[2] = v
			}
		}
		data.Vertices = append(data.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}

	indexProp := faceIndexProp(header)
	var polygon []int
	for i := 0; i < header.FaceCount; i++ {
		for j, prop := range header.FaceProps {
			if j != indexProp {
				if err := skipProperty(values, prop); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := values.Read(prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 || count != math.Trunc(count) {
				return nil, fmt.Errorf("face %d has %v vertices, need at least 3", i, count)
			}

			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				v, err := values.Read(prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, k, err)
				}
				index := int(v)
				if index < 0 || index >= len(data.Vertices) {
					return nil, fmt.Errorf("face %d references vertex %d of %d", i, index, len(data.Vertices))
				}
				polygon = append(polygon, index)
			}

			// Fan triangulation around the first corner
			for k := 1; k+1 < len(polygon); k++ {
				data.Faces = append(data.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}

	return data, nil
}

func skipProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.Read(prop.Type)
	return err
}

func skipList(values plyValueReader, prop PLYProperty) error {
	count, err := values.Read(prop.ListType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.Read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// getTypeSize returns the byte size of a PLY scalar type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plyValueReader reads one scalar of the given PLY type as float64
type plyValueReader interface {
	Read(dataType string) (float64, error)
}

// asciiValueReader reads whitespace-separated tokens
type asciiValueReader struct {
	reader *bufio.Reader
}

func (a *asciiValueReader) Read(dataType string) (float64, error) {
	token, err := a.nextToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return v, nil
}

func (a *asciiValueReader) nextToken() (string, error) {
	var token strings.Builder
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if err == io.EOF && token.Len() > 0 {
				return token.String(), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if token.Len() > 0 {
				return token.String(), nil
			}
			continue
		}
		token.WriteByte(b)
	}
}

// binaryValueReader decodes fixed-size scalars in one byte order
type binaryValueReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) Read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default: // double, float64
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
