package desktop

import (
	"encoding/binary"

	"github.com/go-ole/go-ole"
	"github.com/rs/zerolog/log"
)

const guidSize = 16

// ParseDesktopIDs 解析注册表 VirtualDesktopIDs 二进制值。
// 每 16 字节一个 GUID，前三段小端序；末尾不足 16 字节的部分忽略。
func ParseDesktopIDs(data []byte) []ole.GUID {
	ids := make([]ole.GUID, 0, len(data)/guidSize)
	for off := 0; off+guidSize <= len(data); off += guidSize {
		b := data[off : off+guidSize]
		var id ole.GUID
		id.Data1 = binary.LittleEndian.Uint32(b[0:4])
		id.Data2 = binary.LittleEndian.Uint16(b[4:6])
		id.Data3 = binary.LittleEndian.Uint16(b[6:8])
		copy(id.Data4[:], b[8:16])
		ids = append(ids, id)
	}
	return ids
}

// indexOf 返回 id 在 ids 中的位置，不存在时返回 -1
func indexOf(ids []ole.GUID, id ole.GUID) int {
	for i := range ids {
		if ole.IsEqualGUID(&ids[i], &id) {
			return i
		}
	}
	return -1
}

// sameHandler 可以按底层句柄判断是否同一个桌面
type sameHandler interface {
	sameHandle(other Desktop) bool
}

// locate 在列表中先按句柄、再按 GUID 查找桌面位置
func locate(list []Desktop, target Desktop) (Ordinal, error) {
	if h, ok := target.(sameHandler); ok {
		for i, d := range list {
			if h.sameHandle(d) {
				return Ordinal(i), nil
			}
		}
	}

	id, err := target.ID()
	if err != nil {
		return 0, err
	}
	for i, d := range list {
		other, err := d.ID()
		if err != nil {
			return 0, err
		}
		if ole.IsEqualGUID(&id, &other) {
			return Ordinal(i), nil
		}
	}
	return 0, ErrDesktopNotFound
}

// resolveOrdinal 先在持久化的顺序列表中查找 GUID，
// 列表读取失败或不含该桌面时遍历 enumerate 返回的桌面。
func resolveOrdinal(order []ole.GUID, orderErr error, target Desktop, enumerate func() ([]Desktop, error)) (Ordinal, error) {
	if orderErr == nil {
		id, err := target.ID()
		if err != nil {
			return 0, err
		}
		if i := indexOf(order, id); i >= 0 {
			return Ordinal(i), nil
		}
	} else {
		log.Debug().Err(orderErr).Msg("读取桌面顺序列表失败，改为遍历")
	}

	list, err := enumerate()
	if err != nil {
		return 0, err
	}
	return locate(list, target)
}
