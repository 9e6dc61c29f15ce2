package server

import (
	"net/http"

	"github.com/ManderO9/Gns3Configuration/pkg/operations"
)

// operationRoutes maps each operation path to its form parser. Field names
// are the ones the configuration web form posts.
var operationRoutes = map[string]func(*http.Request) operations.Operation{
	"/Home/StaticRoute": func(r *http.Request) operations.Operation {
		return &operations.StaticRoute{
			Target:  target(r),
			Network: field(r, "network"),
			Mask:    field(r, "mask"),
			NextHop: field(r, "nextHop"),
		}
	},
	"/Home/ConfigureInterface": func(r *http.Request) operations.Operation {
		return &operations.InterfaceConfig{
			Target:    target(r),
			Interface: field(r, "interfaceName"),
			IP:        field(r, "interfaceIpAddress"),
			Mask:      field(r, "interfaceMask"),
		}
	},
	"/Home/AddRipNetwork": func(r *http.Request) operations.Operation {
		return &operations.RipNetwork{
			Target:  target(r),
			Network: field(r, "ripNetwork"),
		}
	},
	"/Home/AddOSPFNetwork": func(r *http.Request) operations.Operation {
		return &operations.OspfNetwork{
			Target:       target(r),
			Network:      field(r, "OSPFNetwork"),
			WildcardMask: field(r, "WildcardMask"),
			ProcessID:    field(r, "id"),
			Area:         field(r, "area"),
		}
	},
	"/Home/ConfigurePcInterface": func(r *http.Request) operations.Operation {
		return &operations.PcInterface{
			Target:  target(r),
			IP:      field(r, "PcIpAddress"),
			Gateway: field(r, "GateWay"),
		}
	},
}

func target(r *http.Request) operations.Target {
	return operations.Target{
		Host: field(r, "hostIpAddress"),
		Port: field(r, "port"),
	}
}

// field reads a form or query value verbatim; validation rejects stray
// whitespace.
func field(r *http.Request, name string) string {
	return r.Form.Get(name)
}
