package ipfs

import "strings"

// DefaultGateway 展示用的 HTTP 网关
const DefaultGateway = "https://nftstorage.link/ipfs/"

// ToGatewayURL ipfs:// 转为网关地址，其他 uri 原样返回
func ToGatewayURL(uri, gateway string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return gateway + rest
	}
	return uri
}

// ExtractHash 从 ipfs:// 或网关地址中取出 hash（含路径）
func ExtractHash(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return rest
	}
	if _, after, ok := strings.Cut(uri, "/ipfs/"); ok {
		return after
	}
	return uri
}
