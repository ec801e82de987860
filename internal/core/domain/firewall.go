package domain

import (
	"errors"
	"time"
)

// Protocol is the transport matched by a firewall rule.
type Protocol string

const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolICMP Protocol = "icmp"
)

// IsValid checks if the protocol is recognized.
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolTCP, ProtocolUDP, ProtocolICMP:
		return true
	}
	return false
}

// RuleAction is the verdict a firewall rule applies.
type RuleAction string

const (
	ActionAllow RuleAction = "allow"
	ActionDeny  RuleAction = "deny"
)

// IsValid checks if the action is recognized.
func (a RuleAction) IsValid() bool {
	return a == ActionAllow || a == ActionDeny
}

var (
	ErrEmptyRuleName   = errors.New("firewall rule name cannot be empty")
	ErrInvalidProtocol = errors.New("invalid protocol")
	ErrInvalidAction   = errors.New("invalid rule action")
	ErrRuleOwnerNeeded = errors.New("firewall rule must belong to a user")
)

// FirewallRule is a user-managed packet-filtering policy entry, independent
// of the scan lifecycle. Rules with a lower Priority value are evaluated
// first, iptables-style.
type FirewallRule struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	SourceIP      string     `json:"source_ip,omitempty"`
	DestinationIP string     `json:"destination_ip,omitempty"`
	Protocol      Protocol   `json:"protocol"`
	PortRange     string     `json:"port_range,omitempty"`
	Action        RuleAction `json:"action"`
	Priority      int        `json:"priority"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Validate ensures the rule entity is in a valid state.
func (r *FirewallRule) Validate() error {
	if r.UserID == 0 {
		return ErrRuleOwnerNeeded
	}
	if r.Name == "" {
		return ErrEmptyRuleName
	}
	if !r.Protocol.IsValid() {
		return ErrInvalidProtocol
	}
	if !r.Action.IsValid() {
		return ErrInvalidAction
	}
	return nil
}
