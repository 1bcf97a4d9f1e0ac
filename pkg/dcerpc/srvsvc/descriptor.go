// Package srvsvc is a worked example exercising the dcerpc NDR engine
// end to end, not a general SRVSVC client (§11.6): one abstract-syntax
// descriptor and one opnum's worth of codec, grounded on
// sharehound-go/internal/smb/srvsvc.go and the vendored
// hirochachacha/go-smb2/internal/msrpc encoder/decoder pair.
package srvsvc

import "github.com/specterops/dcerpc/pkg/dcerpc"

// uuidString is the SRVSVC abstract-syntax UUID, 4b324fc8-1670-01d3-1278-5a47bf6ee188.
const uuidString = "4b324fc8-1670-01d3-1278-5a47bf6ee188"

// AbstractSyntax is the SRVSVC {UUID, version 3.0} descriptor a Ctx
// binds against to call NetrShareGetInfo.
func AbstractSyntax() (dcerpc.AbstractSyntax, error) {
	id, err := dcerpc.ParseSyntaxUUID(uuidString)
	if err != nil {
		return dcerpc.AbstractSyntax{}, err
	}
	return dcerpc.AbstractSyntax{
		Syntax: dcerpc.SyntaxID{UUID: id, VersMajor: 3, VersMinor: 0},
	}, nil
}

// NetrShareGetInfo is opnum 16 (sharehound-go/internal/smb/srvsvc.go's
// opNetrShareGetInfo).
const NetrShareGetInfo uint16 = 16

// ShareInfoLevel502 requests the SHARE_INFO_502 structure, the level
// ShareHound's collector reads the security descriptor from.
const ShareInfoLevel502 uint32 = 502
