package vision

import (
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"github.com/surfsky/GoodsAI/internal/cfg"
	"github.com/surfsky/GoodsAI/pkg/e"
)

// InferenceSession абстрагирует один прямой проход модели.
// Вход — planar-тензор (1,3,224,224), выход — сырой вектор признаков длины D.
type InferenceSession interface {
	Run(input []float32) ([]float32, error)
	Destroy() error
}

// SessionFactory создаёт inference-сессию. Вызывается ровно один раз
// при первом обращении к Extractor.
type SessionFactory func() (InferenceSession, error)

var ortEnvOnce sync.Once

// onnxSession — InferenceSession поверх ONNX Runtime с преаллоцированными
// входным и выходным тензорами. Запуски сериализуются мьютексом: ORT не
// гарантирует потокобезопасность Run при разделяемых IO-тензорах.
type onnxSession struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	dim     int
}

// NewOnnxSessionFactory возвращает фабрику сессий для сериализованной модели.
// Инициализация окружения ONNX Runtime выполняется один раз на процесс.
func NewOnnxSessionFactory(cfg *cfg.OnnxCfg) SessionFactory {
	return func() (InferenceSession, error) {
		const op = "vision.NewOnnxSessionFactory"

		var envErr error
		ortEnvOnce.Do(func() {
			if cfg.OrtSharedLibrary != "" {
				ort.SetSharedLibraryPath(cfg.OrtSharedLibrary)
			}
			envErr = ort.InitializeEnvironment()
		})
		if envErr != nil {
			return nil, e.Wrap(op, envErr)
		}

		input, err := ort.NewTensor(ort.NewShape(1, 3, CropSize, CropSize), make([]float32, TensorLen))
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.VectorSize)))
		if err != nil {
			input.Destroy()
			return nil, e.Wrap(op, err)
		}

		session, err := ort.NewAdvancedSession(
			cfg.ModelPath,
			[]string{cfg.InputName},
			[]string{cfg.OutputName},
			[]ort.ArbitraryTensor{input},
			[]ort.ArbitraryTensor{output},
			nil,
		)
		if err != nil {
			input.Destroy()
			output.Destroy()
			return nil, e.Wrap(op, err)
		}

		return &onnxSession{
			session: session,
			input:   input,
			output:  output,
			dim:     cfg.VectorSize,
		}, nil
	}
}

func (s *onnxSession) Run(input []float32) ([]float32, error) {
	const op = "onnxSession.Run"

	if len(input) != TensorLen {
		return nil, e.Wrap(op, e.ErrVectorSizeMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.input.GetData(), input)

	if err := s.session.Run(); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Копия: выходной тензор переиспользуется следующим запуском
	vector := make([]float32, s.dim)
	copy(vector, s.output.GetData())

	return vector, nil
}

func (s *onnxSession) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.session.Destroy()
	s.input.Destroy()
	s.output.Destroy()

	return err
}
