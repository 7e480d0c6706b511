package network

// Stats aggregates the current state of the synthetic network
type Stats struct {
	TotalNodes               int              `json:"total_nodes"`
	CompromisedNodes         int              `json:"compromised_nodes"`
	TotalConnections         int              `json:"total_connections"`
	NetworkIntegrity         float64          `json:"network_integrity"`
	NodeTypes                map[NodeType]int `json:"node_types"`
	NodesWithVulnerabilities int              `json:"nodes_with_vulnerabilities"`
	TotalVulnerabilities     int              `json:"total_vulnerabilities"`
	TotalAttacks             int              `json:"total_attacks"`
	SuccessfulAttacks        int              `json:"successful_attacks"`
}

// Integrity is the aggregate network health: the average security score
// across all nodes minus a penalty for the compromised fraction,
// floored at 0. An empty network scores 1.0. Always computed on demand,
// never cached.
func (s *Simulator) Integrity() float64 {
	if len(s.nodes) == 0 {
		return 1.0
	}

	totalScore := 0.0
	compromised := 0
	for _, node := range s.nodes {
		totalScore += node.SecurityScore()
		if node.Compromised {
			compromised++
		}
	}

	integrity := totalScore/float64(len(s.nodes)) - float64(compromised)/float64(len(s.nodes))*0.5
	if integrity < 0 {
		return 0
	}
	return integrity
}

// NetworkStats collects node, edge, vulnerability and attack counters
// together with the current integrity.
func (s *Simulator) NetworkStats() Stats {
	stats := Stats{
		TotalNodes:       len(s.nodes),
		TotalConnections: len(s.edges),
		NetworkIntegrity: s.Integrity(),
		NodeTypes:        make(map[NodeType]int),
		TotalAttacks:     s.totalAttacks,
		SuccessfulAttacks: s.successfulAttacks,
	}

	for _, node := range s.nodes {
		stats.NodeTypes[node.Type]++
		if node.Compromised {
			stats.CompromisedNodes++
		}
		if len(node.Vulnerabilities) > 0 {
			stats.NodesWithVulnerabilities++
		}
		stats.TotalVulnerabilities += len(node.Vulnerabilities)
	}
	return stats
}
