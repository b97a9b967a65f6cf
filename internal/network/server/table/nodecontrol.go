package table

import (
	"github.com/zhouqilin/bridge-table/internal/game"
)

// NodeControl 访问控制层，维护远端身份与座位的映射
//
// 身份分两类：客户端（恰好驱动一个本节点座位）与对等节点（认领一组
// 互不重叠的座位）。所有座位认领互不重叠，一个座位永远只有一个主人。
// 与引擎一样由同一条命令处理上下文串行调用，本身不加锁。
type NodeControl struct {
	selfSeats []game.Position            // 本节点控制的座位，按固定分配顺序
	clients   map[string]game.Position   // 客户端身份 → 已分配的本节点座位
	peers     map[string][]game.Position // 对等身份 → 认领的座位集合
	seatOwner map[game.Position]string   // 已被身份认领的座位
}

// NewNodeControl 创建访问控制层，selfSeats 为本节点自己控制的座位
func NewNodeControl(selfSeats []game.Position) *NodeControl {
	seats := make([]game.Position, len(selfSeats))
	copy(seats, selfSeats)
	return &NodeControl{
		selfSeats: seats,
		clients:   make(map[string]game.Position),
		peers:     make(map[string][]game.Position),
		seatOwner: make(map[game.Position]string),
	}
}

// SelfSeats 返回本节点控制的座位
func (nc *NodeControl) SelfSeats() []game.Position {
	seats := make([]game.Position, len(nc.selfSeats))
	copy(seats, nc.selfSeats)
	return seats
}

// IsSelfSeat 判断座位是否由本节点控制
func (nc *NodeControl) IsSelfSeat(seat game.Position) bool {
	for _, s := range nc.selfSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// AddClient 注册客户端身份，按固定顺序分配下一个未分配的本节点座位
// 已注册的身份返回其现有座位（幂等）
func (nc *NodeControl) AddClient(identity string) (game.Position, bool) {
	if seat, ok := nc.clients[identity]; ok {
		return seat, true
	}
	if _, ok := nc.peers[identity]; ok {
		return 0, false
	}
	for _, seat := range nc.selfSeats {
		if _, taken := nc.seatOwner[seat]; !taken {
			nc.clients[identity] = seat
			nc.seatOwner[seat] = identity
			return seat, true
		}
	}
	return 0, false
}

// AddClientAt 注册客户端身份并指定座位，座位必须是尚未分配的本节点座位
// 身份已持有该座位时幂等成功
func (nc *NodeControl) AddClientAt(identity string, seat game.Position) (game.Position, bool) {
	if assigned, ok := nc.clients[identity]; ok {
		return assigned, assigned == seat
	}
	if _, ok := nc.peers[identity]; ok {
		return 0, false
	}
	if !nc.IsSelfSeat(seat) {
		return 0, false
	}
	if _, taken := nc.seatOwner[seat]; taken {
		return 0, false
	}
	nc.clients[identity] = seat
	nc.seatOwner[seat] = identity
	return seat, true
}

// AddPeer 注册对等节点身份及其认领的座位集合
// 身份已注册、集合为空、含重复座位或与任何已知座位（本节点座位
// 或其他对等节点座位）重叠时整体失败，不做任何登记
func (nc *NodeControl) AddPeer(identity string, seats []game.Position) bool {
	if _, ok := nc.peers[identity]; ok {
		return false
	}
	if _, ok := nc.clients[identity]; ok {
		return false
	}
	if len(seats) == 0 {
		return false
	}
	requested := make(map[game.Position]bool, len(seats))
	for _, seat := range seats {
		if !seat.Valid() || requested[seat] {
			return false
		}
		if nc.IsSelfSeat(seat) {
			return false
		}
		if _, taken := nc.seatOwner[seat]; taken {
			return false
		}
		requested[seat] = true
	}
	claimed := make([]game.Position, len(seats))
	copy(claimed, seats)
	nc.peers[identity] = claimed
	for _, seat := range claimed {
		nc.seatOwner[seat] = identity
	}
	return true
}

// IsAllowedToAct 判断身份是否有权以指定座位行动
func (nc *NodeControl) IsAllowedToAct(identity string, seat game.Position) bool {
	if assigned, ok := nc.clients[identity]; ok {
		return assigned == seat
	}
	if seats, ok := nc.peers[identity]; ok {
		for _, s := range seats {
			if s == seat {
				return true
			}
		}
	}
	return false
}

// GetPosition 返回身份对应的唯一座位
// 控制多个座位的对等节点无法给出唯一座位，ok 为 false
func (nc *NodeControl) GetPosition(identity string) (game.Position, bool) {
	if seat, ok := nc.clients[identity]; ok {
		return seat, true
	}
	if seats, ok := nc.peers[identity]; ok && len(seats) == 1 {
		return seats[0], true
	}
	return 0, false
}

// IsRegistered 判断身份是否已注册
func (nc *NodeControl) IsRegistered(identity string) bool {
	if _, ok := nc.clients[identity]; ok {
		return true
	}
	_, ok := nc.peers[identity]
	return ok
}

// knownSeats 返回全部已知座位：本节点座位加上对等节点认领的座位
func (nc *NodeControl) knownSeats() map[game.Position]bool {
	known := make(map[game.Position]bool, game.NumPositions)
	for _, seat := range nc.selfSeats {
		known[seat] = true
	}
	for _, seats := range nc.peers {
		for _, seat := range seats {
			known[seat] = true
		}
	}
	return known
}

// ArePositionsControlled 判断给定座位集合是否恰好覆盖全部已知座位
func (nc *NodeControl) ArePositionsControlled(seats []game.Position) bool {
	known := nc.knownSeats()
	if len(seats) != len(known) {
		return false
	}
	seen := make(map[game.Position]bool, len(seats))
	for _, seat := range seats {
		if !known[seat] || seen[seat] {
			return false
		}
		seen[seat] = true
	}
	return true
}

// AreSelfSeatsAssigned 判断本节点控制的座位是否都已有客户端驱动
func (nc *NodeControl) AreSelfSeatsAssigned() bool {
	for _, seat := range nc.selfSeats {
		if _, taken := nc.seatOwner[seat]; !taken {
			return false
		}
	}
	return true
}
