package seed

// DerivationVersion - версия схемы выведения подсидов.
// Любое изменение порядка выборок меняет все миры для фиксированного сида
// и обязано сопровождаться увеличением версии.
const DerivationVersion = 1

// Plan содержит подсиды, выведенные из сида мира
type Plan struct {
	Version    int     `json:"version"`
	LayerSeeds []int64 `json:"layer_seeds"`
	NoiseSeed  int32   `json:"noise_seed"`
}

// Derive выводит подсиды для стека слоёв.
//
// Порядок выборок (версия 1):
//  1. по одному NextLong на каждый слой, начиная со слоя 0;
//  2. один NextInt для шума искажения границ.
func Derive(worldSeed int64, layerCount int) Plan {
	r := NewJavaRandom(worldSeed)

	plan := Plan{
		Version:    DerivationVersion,
		LayerSeeds: make([]int64, layerCount),
	}
	for i := range plan.LayerSeeds {
		plan.LayerSeeds[i] = r.NextLong()
	}
	plan.NoiseSeed = r.NextInt()

	return plan
}
