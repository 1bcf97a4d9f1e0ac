package srvsvc

import (
	"github.com/specterops/dcerpc/internal/wire"
	"github.com/specterops/dcerpc/pkg/dcerpc"
)

// NetrShareGetInfoRequest is the opnum-16 request stub: two top-level
// unique pointers to conformant-varying UCS-2 strings followed by the
// fixed info level (sharehound-go/internal/smb/srvsvc.go's
// GetShareSecurityDescriptor builds the equivalent by hand with
// bytes.Buffer; here the dcerpc NDR engine does the pointer/alignment
// bookkeeping).
type NetrShareGetInfoRequest struct {
	ServerName string
	ShareName  string
	Level      uint32
}

// Encode writes the request stub starting at offset (immediately after
// the fixed REQUEST header) using pdu's pointer-referent bookkeeping.
func (r *NetrShareGetInfoRequest) Encode(pdu *dcerpc.PDU, buf wire.Buf, offset int) int {
	c := &dcerpc.Cursor{Buf: buf, PDU: pdu}

	offset = c.EncodePtr(offset, true, dcerpc.PtrUnique, true, func(o int, topLevel bool) int {
		return c.EncodeUCS2Z(o, r.ServerName)
	})
	offset = c.EncodePtr(offset, true, dcerpc.PtrUnique, true, func(o int, topLevel bool) int {
		return c.EncodeUCS2Z(o, r.ShareName)
	})
	offset = c.EncodeUint32(offset, r.Level)

	return c.ProcessDeferredPointers(offset)
}

// ShareInfo502 is the subset of SHARE_INFO_502_I this package decodes:
// name/remark/path as UCS-2 strings and the trailing security
// descriptor as a raw conformant byte array
// (sharehound-go/internal/smb/srvsvc.go's extractSecurityDescriptor
// does the equivalent search-based extraction on the undecoded wire
// bytes; here it is read as a proper NDR field instead).
type ShareInfo502 struct {
	NetName             string
	Type                uint32
	Remark              string
	Permissions         uint32
	MaxUses             uint32
	CurrentUses         uint32
	Path                string
	Passwd              string
	SecurityDescriptor  []byte
	WindowsErrorCode    uint32
}

// Decode parses a level-502 NetrShareGetInfo response stub starting at
// offset, returning the new offset and the decoded structure. The
// top-level is a PTR_UNIQUE to the LPSHARE_INFO_502 union arm
// (level selector followed by the pointer), trailed by the call's
// WERROR return code.
func DecodeShareInfo502(pdu *dcerpc.PDU, buf wire.Buf, offset int) (int, *ShareInfo502) {
	c := &dcerpc.Cursor{Buf: buf, PDU: pdu}
	info := &ShareInfo502{}

	var level uint32
	offset, level = c.DecodeUint32(offset)
	if offset < 0 {
		return offset, nil
	}
	if level != ShareInfoLevel502 {
		return -1, nil
	}

	offset, _ = c.DecodePtr(offset, true, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		return decodeShareInfo502Body(c, info, o)
	})
	if offset < 0 {
		return offset, nil
	}

	offset = c.ProcessDeferredPointers(offset)
	offset, info.WindowsErrorCode = c.DecodeUint32(offset)
	return offset, info
}

func decodeShareInfo502Body(c *dcerpc.Cursor, info *ShareInfo502, offset int) int {
	var netNamePresent, remarkPresent, pathPresent, passwdPresent, sdPresent bool
	var sdLen uint32

	offset, netNamePresent = c.DecodePtr(offset, false, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		var s string
		o, s = c.DecodeUCS2Z(o)
		info.NetName = s
		return o
	})
	offset, info.Type = c.DecodeUint32(offset)
	offset, remarkPresent = c.DecodePtr(offset, false, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		var s string
		o, s = c.DecodeUCS2Z(o)
		info.Remark = s
		return o
	})
	offset, info.Permissions = c.DecodeUint32(offset)
	offset, info.MaxUses = c.DecodeUint32(offset)
	offset, info.CurrentUses = c.DecodeUint32(offset)
	offset, pathPresent = c.DecodePtr(offset, false, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		var s string
		o, s = c.DecodeUCS2Z(o)
		info.Path = s
		return o
	})
	offset, passwdPresent = c.DecodePtr(offset, false, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		var s string
		o, s = c.DecodeUCS2Z(o)
		info.Passwd = s
		return o
	})
	offset, sdLen = c.DecodeUint32(offset)
	offset, sdPresent = c.DecodePtr(offset, false, dcerpc.PtrUnique, func(o int, topLevel bool) int {
		return decodeSecurityDescriptorBytes(c, info, sdLen, o)
	})

	_ = netNamePresent
	_ = remarkPresent
	_ = pathPresent
	_ = passwdPresent
	_ = sdPresent
	return offset
}

func decodeSecurityDescriptorBytes(c *dcerpc.Cursor, info *ShareInfo502, declaredLen uint32, offset int) int {
	var maxCount uint32
	offset, maxCount = c.DecodeUint32(offset)
	if offset < 0 || maxCount != declaredLen {
		return -1
	}

	n := int(maxCount)
	if n < 0 || offset+n > c.Buf.Len() {
		return -1
	}
	info.SecurityDescriptor = append([]byte(nil), c.Buf.B[offset:offset+n]...)
	return offset + n
}
