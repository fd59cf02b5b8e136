package trustcommerce

import "strings"

// reply is a parsed key=value response. The provider answers every action
// with newline separated pairs; unknown keys are kept but only the fields
// below drive the protocol.
type reply struct {
	DeviceStatus   string
	CloudPayID     string
	CloudPayStatus string
	Status         string
	Message        string
	DeclineType    string
	ErrorType      string
	Offenders      string

	raw map[string]string
}

func parseReply(body []byte) reply {
	r := reply{raw: make(map[string]string)}

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		r.raw[key] = value

		switch key {
		case "devicestatus":
			r.DeviceStatus = value
		case "cloudpayid":
			r.CloudPayID = value
		case "cloudpaystatus":
			r.CloudPayStatus = value
		case "status":
			r.Status = value
		case "message":
			r.Message = value
		case "declinetype":
			r.DeclineType = value
		case "errortype":
			r.ErrorType = value
		case "offenders":
			r.Offenders = value
		}
	}
	return r
}

// describe builds a human readable failure reason from whichever fields
// the provider filled in.
func (r reply) describe() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.DeclineType != "":
		return "declined: " + r.DeclineType
	case r.ErrorType != "":
		return "error: " + r.ErrorType
	case r.Offenders != "":
		return "rejected fields: " + r.Offenders
	case r.CloudPayStatus != "":
		return "cloudpay status " + r.CloudPayStatus
	case r.Status != "":
		return "status " + r.Status
	default:
		return "unrecognized gateway reply"
	}
}
