package switcher

import "fmt"

// 端口编号从1开始
const FirstPort = 1

// validatePort checks that port is in [1, numPorts]
func validatePort(port, numPorts int) error {
	if port < FirstPort || port > numPorts {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPort, port, FirstPort, numPorts)
	}
	return nil
}

// floodPorts returns every port except the ingress port, in ascending order
func floodPorts(numPorts, ingress int) []int {
	ports := make([]int, 0, numPorts)
	for port := FirstPort; port <= numPorts; port++ {
		// 跳过输入端口
		if port == ingress {
			continue
		}
		ports = append(ports, port)
	}
	return ports
}
