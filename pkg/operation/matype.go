package operation

import (
	"strconv"

	averr "alphavantage/pkg/error"
)

// MATypes 移动平均类型映射，下标即服务端整数代码
//
//	0 = Simple Moving Average (SMA)
//	1 = Exponential Moving Average (EMA)
//	2 = Weighted Moving Average (WMA)
//	3 = Double Exponential Moving Average (DEMA)
//	4 = Triple Exponential Moving Average (TEMA)
//	5 = Triangular Moving Average (TRIMA)
//	6 = T3 Moving Average
//	7 = Kaufman Adaptive Moving Average (KAMA)
//	8 = MESA Adaptive Moving Average (MAMA)
var MATypes = [...]string{"SMA", "EMA", "WMA", "DEMA", "TEMA", "TRIMA", "T3", "KAMA", "MAMA"}

// MapToMAType 将整数或类型名转换为服务端的移动平均类型代码。
// 只接受 [0, 8] 内的整数，负数代码直接拒绝。
func MapToMAType(matype any) (int, error) {
	switch v := matype.(type) {
	case int:
		return checkMAType(int64(v))
	case int8:
		return checkMAType(int64(v))
	case int16:
		return checkMAType(int64(v))
	case int32:
		return checkMAType(int64(v))
	case int64:
		return checkMAType(v)
	case uint:
		return checkMAType(int64(v))
	case uint8:
		return checkMAType(int64(v))
	case uint16:
		return checkMAType(int64(v))
	case uint32:
		return checkMAType(int64(v))
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return checkMAType(n)
		}
		for i, name := range MATypes {
			if name == v {
				return i, nil
			}
		}
		return 0, averr.Errorf(averr.ErrUnsupportedValue, "the value %s is not supported", v)
	}
	return 0, averr.Errorf(averr.ErrUnsupportedValue, "the value %v is not supported", matype)
}

func checkMAType(v int64) (int, error) {
	if v < 0 || v >= int64(len(MATypes)) {
		return 0, averr.Errorf(averr.ErrUnsupportedValue, "the value %d is not supported", v)
	}
	return int(v), nil
}
