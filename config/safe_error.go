package config

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
// release 模式返回 fallback，其余模式返回原始错误信息
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
