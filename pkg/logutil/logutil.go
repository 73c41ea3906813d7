package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Level 日志级别，值越小打印得越多
type Level int

// 定义日志级别
const (
	DEBUG Level = iota // 0
	INFO               // 1
	WARN               // 2
	ERROR              // 3
)

// 定义日志级别映射字符串
var LOG_LEVELS = map[string]Level{
	"DEBUG": DEBUG,
	"INFO":  INFO,
	"WARN":  WARN,
	"ERROR": ERROR,
}

var (
	mu           sync.Mutex
	logger       *log.Logger
	logFile      *os.File
	once         sync.Once
	currentLevel = INFO // 默认日志级别
)

// 为了让 VarP 接收自定义类型，实现 flag.Value 接口(String Set Type)即可
func (l *Level) String() string {
	for name, v := range LOG_LEVELS {
		if v == *l {
			return name
		}
	}
	return fmt.Sprintf("Level(%d)", int(*l))
}

func (l *Level) Set(val string) error {
	v, ok := LOG_LEVELS[strings.ToUpper(strings.TrimSpace(val))]
	if !ok {
		return fmt.Errorf("无效的日志等级: %s (可选 %s)", val, strings.Join(Level(0).Values(), "/"))
	}
	*l = v
	return nil
}

func (l *Level) Type() string {
	return "level"
}

// 列出所有的合法值
func (Level) Values() []string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR"}
}

// ParseLevel 解析日志等级字符串，大小写不敏感
func ParseLevel(s string) (Level, error) {
	var l Level
	err := l.Set(s)
	return l, err
}

// InitLogger 初始化日志，允许指定输出目标（stdout/stderr 或 文件）
// 进程内只生效一次，后续调用直接返回
func InitLogger(output string, level Level) error {
	var err error
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()

		var w io.Writer
		switch output {
		case "", "stderr":
			w = os.Stderr
		case "stdout":
			w = os.Stdout
		default:
			// 以追加模式打开日志文件，不会覆盖已有内容
			logFile, err = os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				err = fmt.Errorf("无法创建日志文件 %s: %w", output, err)
				w = os.Stderr
			} else {
				w = logFile
			}
		}
		logger = log.New(w, "", log.LstdFlags)
		currentLevel = level // 设置日志级别
	})
	return err
}

// SetOutput 替换日志输出，主要给测试用
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

// 设置日志级别
func SetLogLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

// GetLogLevel 返回当前日志级别
func GetLogLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// logMessage 记录日志，**仅输出符合当前级别的日志**
func logMessage(level Level, msg string, args ...any) {
	mu.Lock()
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags) // 没有初始化时默认输出到 stderr
	}
	l, lv := logger, currentLevel
	mu.Unlock()

	if level < lv {
		return
	}
	_, file, line, _ := runtime.Caller(2) // 获取真正调用的文件+行号
	l.Printf("[%s:%d] %s", filepath.Base(file), line, fmt.Sprintf(msg, args...))
}

// Info 记录 INFO 日志
func Info(msg string, args ...any) {
	logMessage(INFO, "[INFO] "+msg, args...)
}

// Warn 记录 WARN 日志
func Warn(msg string, args ...any) {
	logMessage(WARN, "[WARN] "+msg, args...)
}

// Error 记录 ERROR 日志
// DEBUG 级别下额外打印调用堆栈
func Error(msg string, args ...any) {
	if GetLogLevel() > DEBUG {
		logMessage(ERROR, "[ERR] "+msg, args...)
		return
	}
	size := 1024 // 初始缓冲区大小
	for {
		buf := make([]byte, size)
		n := runtime.Stack(buf, false)
		if n < size { // 如果数据小于缓冲区，则不需要扩展
			// 堆栈里可能带 % ，作为参数传入而不是拼进格式串
			logMessage(ERROR, "[ERR] "+msg+"\n调用堆栈:\n%s", append(args, string(buf[:n]))...)
			return
		}
		// 扩展缓冲区大小，倍增策略
		size *= 2
	}
}

// Debug 记录 DEBUG 日志
func Debug(msg string, args ...any) {
	// 确保参数被展开在传入进去
	logMessage(DEBUG, "[DBG] "+msg, args...)
}

// 关闭日志文件（如果有的话）
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		if err != nil {
			return err
		}
	}
	return nil
}
