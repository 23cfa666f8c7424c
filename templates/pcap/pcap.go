// Package pcap is the template of libpcap capture files: a file header followed by
// packet records up to the end of the file.
package pcap

import (
	"bytes"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/filetype"
	"github.com/bearlytools/bindecl/offset"
	"github.com/bearlytools/bindecl/structs"
)

// Magic is the little endian magic number of microsecond resolution captures, as
// found on disk.
var Magic = []byte{0xd4, 0xc3, 0xb2, 0xa1}

var linkTypes = []structs.Value{
	structs.V(0, "LINKTYPE_NULL", "BSD loopback encapsulation"),
	structs.V(1, "LINKTYPE_ETHERNET", "IEEE 802.3 Ethernet"),
	structs.V(101, "LINKTYPE_RAW", "Raw IP"),
	structs.V(105, "LINKTYPE_IEEE802_11", "IEEE 802.11 wireless LAN"),
	structs.V(113, "LINKTYPE_LINUX_SLL", "Linux cooked capture"),
	structs.V(127, "LINKTYPE_IEEE802_11_RADIOTAP", "Radiotap header and 802.11 frame"),
}

func u16(desc string) *structs.Int {
	return structs.NewInt(structs.Desc(desc), structs.Width(2))
}

func u32(desc string, opts ...structs.Option) *structs.Int {
	return structs.NewInt(append([]structs.Option{structs.Desc(desc), structs.Width(4)}, opts...)...)
}

// FileHeader starts the capture.
var FileHeader = structs.NewType(
	"FileHeader",
	[]structs.Decl{
		structs.F("magic", u32("Magic number", structs.Hex())),
		structs.F("version_major", u16("Major version")),
		structs.F("version_minor", u16("Minor version")),
		structs.F("thiszone", u32("GMT to local correction", structs.Signed())),
		structs.F("sigfigs", u32("Accuracy of timestamps")),
		structs.F("snaplen", u32("Max length saved portion of each packet")),
		structs.F("linktype", u32("Data link type", structs.Values(linkTypes...))),
	},
	structs.WithDescription("Capture file header"),
)

// Timeval is a packet timestamp.
var Timeval = structs.NewType("Timeval", []structs.Decl{
	structs.F("tv_sec", u32("Seconds since the epoch")),
	structs.F("tv_usec", u32("Microseconds")),
})

// Pkthdr is the record header of a packet.
var Pkthdr = structs.NewType("Pkthdr", []structs.Decl{
	structs.F("ts", structs.NewSub(Timeval, structs.Desc("Time stamp"))),
	structs.F("caplen", u32("Length of portion present")),
	structs.F("length", u32("Length of this packet (off wire)")),
})

// Packet is a packet record: its header and the captured bytes.
var Packet = structs.NewType(
	"Packet",
	[]structs.Decl{
		structs.F("pkthdr", structs.NewSub(Pkthdr)),
		structs.F("payload", structs.NewBytes(structs.Ref("pkthdr.caplen"), structs.Desc("Captured bytes"))),
	},
	structs.WithDescription("Packet record"),
)

// FileType returns the pcap file type.
func FileType() filetype.FileType {
	return filetype.FileType{
		Name:        "pcap",
		Description: "Packet capture file",
		Extensions:  []string{"pcap", "cap"},
		Check: func(d *data.Data) bool {
			b, err := d.Unpack(offset.At(0), int64(len(Magic)))
			return err == nil && bytes.Equal(b, Magic)
		},
		Setup: setup,
	}
}

func setup(ctx context.Context, d *data.Data) error {
	hdr, err := structs.Map(ctx, d, offset.At(0), FileHeader)
	if err != nil {
		return err
	}
	_, err = structs.MapFill(ctx, d, offset.At(0).Add(hdr.Size()), Packet)
	return err
}
