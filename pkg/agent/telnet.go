package agent

import "bytes"

// Telnet protocol bytes (RFC 854).
const (
	telnetIAC  = 255
	telnetDONT = 254
	telnetDO   = 253
	telnetWONT = 252
	telnetWILL = 251
	telnetSB   = 250
	telnetSE   = 240
)

// negotiator refuses every option the console proposes, like a dumb NVT.
// It is fed the raw inbound stream and returns the bytes to send back.
type negotiator struct {
	state int
	verb  byte
}

const (
	stData = iota
	stIAC
	stVerb
	stSub
	stSubIAC
)

func (n *negotiator) feed(in []byte) []byte {
	var reply []byte
	for _, b := range in {
		switch n.state {
		case stData:
			if b == telnetIAC {
				n.state = stIAC
			}
		case stIAC:
			switch b {
			case telnetDO, telnetDONT, telnetWILL, telnetWONT:
				n.verb = b
				n.state = stVerb
			case telnetSB:
				n.state = stSub
			default:
				n.state = stData
			}
		case stVerb:
			switch n.verb {
			case telnetDO:
				reply = append(reply, telnetIAC, telnetWONT, b)
			case telnetWILL:
				reply = append(reply, telnetIAC, telnetDONT, b)
			}
			n.state = stData
		case stSub:
			if b == telnetIAC {
				n.state = stSubIAC
			}
		case stSubIAC:
			if b == telnetSE {
				n.state = stData
			} else {
				n.state = stSub
			}
		}
	}
	return reply
}

// escapeIAC doubles every IAC byte so command text is sent as data.
func escapeIAC(b []byte) []byte {
	if bytes.IndexByte(b, telnetIAC) < 0 {
		return b
	}
	out := make([]byte, 0, len(b)+1)
	for _, c := range b {
		if c == telnetIAC {
			out = append(out, telnetIAC)
		}
		out = append(out, c)
	}
	return out
}
